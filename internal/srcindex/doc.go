// Package srcindex maps source positions to program points.
//
// Points cover spans of source lines. Spans either are disjoint or one contains the
// other, and a position resolves to the innermost point covering it.
package srcindex
