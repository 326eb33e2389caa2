/*
Package domain contains the core domain models of the guidebot assistant.

It defines the dialogue graph entities, the transcript entries exchanged during a
session and the lifecycle events emitted while a turn runs. This package is kept
pure and free of external dependencies like I/O or rendering, following Hexagonal
Architecture principles.

# Key Entities

  - Node: a named unit of the conversation (message, options, links).
  - Option: a selectable reply pointing at another node.
  - Link: a resource attached to a node, internal route or external URL.
  - Entry: one message in a session transcript, authored by the user or the bot.
  - LifecycleHooks: optional callbacks for observing a session.
*/
package domain
