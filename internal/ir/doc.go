// Package ir defines the instruction sequence produced for one data-access
// method body.
//
// Instructions are plain data: locals, control constructs, the guaranteed
// cleanup primitives (Guard, Bracket, Scoped, Translate) and calls into the
// fixed runtime vocabulary declared in vocab.go. Rendering an instruction
// sequence into Go is the job of package gen; executing it directly is done
// by package irtest.
package ir
