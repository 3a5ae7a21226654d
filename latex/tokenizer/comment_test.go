// comment_test.go -
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

package tokenizer

import (
	"testing"
)

func TestReadComment(t *testing.T) {
	p := NewString("test", "% line 1\n% line 2 \t \n\t % line 3\n   xxx", nil)

	var comments []string
	var text string
	for {
		tok, err := p.Next()
		if err != nil {
			break
		}
		switch tok.Type {
		case CommentRun:
			comments = append(comments, CommentText(tok.Raw))
		case TextRun:
			text += tok.Raw
		default:
			t.Errorf("unexpected token %s", tok)
		}
	}

	expected := []string{" line 1", " line 2", " line 3"}
	if len(comments) != len(expected) {
		t.Fatalf("wrong number of comments: %q", comments)
	}
	for i, comment := range comments {
		if comment != expected[i] {
			t.Errorf("comment %d failed: got %q, expected %q",
				i, comment, expected[i])
		}
	}
	if text != "\t    xxx" {
		t.Errorf("wrong text %q", text)
	}
}

func TestCommentAtEOF(t *testing.T) {
	p := NewString("test", "x % no newline", nil)
	toks, err := collect(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 2 || toks[1].Type != CommentRun ||
		toks[1].Raw != "% no newline" {
		t.Errorf("wrong tokens %v", toks)
	}
}

func TestEscapedPercent(t *testing.T) {
	p := NewString("test", "50\\% off", nil)
	toks, err := collect(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 1 || toks[0].Type != TextRun {
		t.Errorf("wrong tokens %v", toks)
	}
}
