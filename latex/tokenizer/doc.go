// doc.go -
// Copyright (C) 2016  Jochen Voss <voss@seehuhn.de>
// Copyright (C) 2026  The nobby authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package tokenizer splits LaTeX source into a stream of lexical events.
//
// The tokenizer knows nothing about the meaning of individual macros.
// It only distinguishes literal text, comments, construct markers,
// argument groups and environment delimiters, and it checks that these
// are properly nested.  Every token records its exact source text, so
// that the input can be reconstructed from the token stream.
package tokenizer
