// Package xmlgap holds a namespaced XML document as a tree in which every
// byte of inter-element whitespace is data. Text between a start tag and
// the first child, and text trailing each element, are stored verbatim on
// the nodes ("gaps"), so a document loaded and saved without edits
// round-trips exactly: byte-order marker, declaration, attribute order,
// quoting, line endings.
//
// The model deliberately mirrors what structural editors need and nothing
// more: elements, raw pass-through nodes (comments, CDATA, processing
// instructions), and the two text slots per node. Namespace prefixes are
// kept literally; matching is by local name.
package xmlgap
