// Package catalog embeds the assistant's default dialogue: the privacy-compliance
// topic graph and the ordered keyword rules that route free text into it.
package catalog
