// Package subtext parses Subtext note bodies into typed blocks and spans.
//
// A document is parsed line by line. Each line becomes one Block chosen by its
// leading sigil:
//
//	# heading          -> Heading
//	$key value         -> KeyValuePair
//	- item             -> UnorderedListItem
//	> quote            -> Quote
//	12. item           -> OrderedListItem
//	```lang ... ```    -> Code (spans several lines)
//	(blank)            -> Empty
//	anything else      -> Paragraph
//
// The text after the sigil is tokenized into spans: plain text, hyperlinks
// (http:// and https://), slashlinks (/some/path) and wikilinks ([[Note]]).
// Nothing is dropped: joining a block's span texts yields the tokenized input,
// and Format rebuilds the source from a Document.
//
// Parsing is a pure function. Nothing is shared between calls, so callers may
// parse many documents concurrently.
package subtext
