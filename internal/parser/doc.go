// Package parser extracts a structured draft record (catalog code, actor
// names, title) from an unstructured video filename.
//
// Parsing is a cascade of named extraction rules evaluated in strict
// precedence order over progressively reduced text: the extension is
// stripped, then code rules run, then actor rules, and whatever text remains
// becomes the title candidate. A later pass never re-examines text consumed
// by an earlier one, and a field that cannot be determined is left unset
// rather than guessed.
//
// Parse is pure and never fails; on total ambiguity it returns a record with
// only the source filename populated.
package parser
