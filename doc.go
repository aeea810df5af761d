// Package daggo provides the identifier and set-algebra core of a commit
// graph (DAG) storage engine.
//
// Graph vertexes are assigned dense, topologically sorted integers ([Id])
// partitioned into allocation groups ([Group]). Large ancestry sets are
// represented as sorted lists of inclusive integer ranges ([Span]) instead
// of per-element collections, because ancestry sets are highly contiguous
// in practice: most commits are linear history. A [SpanSet] covering
// billions of ids costs the same as one covering ten.
//
// # Quick Start
//
//	a := daggo.FromSpans(daggo.NewSpan(0, 10), daggo.NewSpan(15, 20))
//	b := daggo.FromSpans(daggo.NewSpan(5, 19))
//
//	both := a.Intersection(b) // 5..=10 15..=19
//	all := a.Union(b)         // 0..=20
//	only := a.Difference(b)   // 0..=4 20
//
//	for id := range both.Descend() {
//		fmt.Println(id)
//	}
//
// The set operations are on the hot path of every ancestry query in the
// graph engine; all of them run in time proportional to the number of
// spans involved, never to the number of ids covered.
//
// Subpackages provide the boundaries to external collaborators: codec
// (binary encoding for persistence), bitmap (Roaring interop), and store
// (the byte-range read interface a backing store must satisfy).
package daggo
