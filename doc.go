/*
Package guidebot is the guided-conversation assistant of a privacy-compliance site.

It combines a static dialogue graph, an ordered keyword intent classifier and an
append-only session transcript, driven by a turn controller that paces replies like a
human typing. There is no language model and no server-side state: a Session lives in
the host process and is discarded on close.

# Concept

The Engine owns the immutable parts (graph and classifier) and is shared. Each visitor
gets a Session. The host feeds it free text or option clicks and renders the transcript;
the Session consumes only the host's visibility signal and a navigation primitive.

# Usage

	eng, err := guidebot.New("", guidebot.WithPacing(800*time.Millisecond))
	if err != nil {
		log.Fatal(err)
	}

	s := eng.NewSession(guidebot.WithNavigator(nav))
	defer s.Close()

	s.Open()                // welcome message with topic buttons
	s.SubmitText("GDPR")    // user entry now, bot reply after the typing delay
	s.Flush(ctx)            // wait for the reply
	s.SelectOption("pricing")

	for _, e := range s.Transcript() {
		fmt.Println(e.Sender, e.Text)
	}
*/
package guidebot
