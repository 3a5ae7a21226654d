// build.go -
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

package tree

import (
	"fmt"
	"io"

	"github.com/olitheolix/nobby/latex/scanner"
	"github.com/olitheolix/nobby/latex/tokenizer"
)

// TokenSource is the input of the tree builder.  It is implemented by
// *tokenizer.Tokenizer.
type TokenSource interface {
	Next() (*tokenizer.Token, error)
}

// Build reads all tokens from src and arranges them into a tree.
// Groups which directly follow a marker or a block opening are
// attached to that construct as arguments, as are all further groups
// which directly follow such an argument.
func Build(src TokenSource) (*Tree, error) {
	b := &builder{
		t:   New(),
		src: src,
	}
	b.stack = []*Node{b.t.root}
	err := b.run()
	if err != nil {
		return nil, err
	}
	return b.t, nil
}

// Parse reads nodes from src into an existing tree, for example to
// expand a macro definition.  The new nodes are not attached to the
// tree; their parent chain leads to the given parent node.
func (t *Tree) Parse(src TokenSource, parent *Node) ([]*Node, error) {
	scratch := t.add(&Node{kind: KindGroup, name: "{"}, parentID(parent))
	b := &builder{
		t:     t,
		src:   src,
		stack: []*Node{scratch},
	}
	err := b.run()
	if err != nil {
		return nil, err
	}
	return scratch.body, nil
}

type builder struct {
	t     *Tree
	src   TokenSource
	stack []*Node

	// owner is the construct which receives adjacent groups as
	// arguments, or nil.
	owner *Node
}

// structural returns a *scanner.StructuralError for the given position.
// The input name is taken from the token source, if it has one.
func (b *builder) structural(pos scanner.Pos, format string, args ...interface{}) error {
	err := &scanner.StructuralError{
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
	if named, ok := b.src.(interface{ Name() string }); ok {
		err.Name = named.Name()
	}
	return err
}

func (b *builder) top() *Node {
	return b.stack[len(b.stack)-1]
}

func (b *builder) run() error {
	for {
		tok, err := b.src.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return err
		}

		owner := b.owner
		b.owner = nil
		cur := b.top()

		switch tok.Type {
		case tokenizer.TextRun:
			b.t.AppendBody(cur, b.t.NewText(tok.Raw, tok.Span, cur))
		case tokenizer.CommentRun:
			b.t.AppendBody(cur, b.t.NewComment(tok.Raw, tok.Span, cur))
		case tokenizer.MarkerStart:
			cmd := b.t.NewCommand(tok.Name, tok.Raw, tok.Span, cur)
			b.t.AppendBody(cur, cmd)
			b.owner = cmd
		case tokenizer.BlockBegin:
			block := b.t.NewBlock(tok.Name, tok.Raw, tok.Short, tok.Span, cur)
			b.t.AppendBody(cur, block)
			b.stack = append(b.stack, block)
			b.owner = block
		case tokenizer.BlockEnd:
			if cur.kind != KindBlock || cur.name != tok.Name {
				return b.structural(tok.Span.Start, "unexpected end of %q", tok.Name)
			}
			b.t.Close(cur, tok.Raw, tok.Span.End)
			b.stack = b.stack[:len(b.stack)-1]
		case tokenizer.GroupOpen:
			if tok.Adjacent && owner != nil {
				group := b.t.NewGroup(tok.Name, tok.Raw, tok.Span, owner)
				b.t.AppendArg(owner, group)
				b.stack = append(b.stack, group)
			} else {
				group := b.t.NewGroup(tok.Name, tok.Raw, tok.Span, cur)
				b.t.AppendBody(cur, group)
				b.stack = append(b.stack, group)
			}
		case tokenizer.GroupClose:
			if cur.kind != KindGroup || cur.name != tok.Name {
				return b.structural(tok.Span.Start, "unexpected group end %q", tok.Raw)
			}
			b.t.Close(cur, tok.Raw, tok.Span.End)
			b.stack = b.stack[:len(b.stack)-1]
			parent := cur.Parent()
			if parent != nil && parent.IsConstruct() && isArg(parent, cur) {
				// further adjacent groups are arguments, too
				b.owner = parent
				parent.extend(tok.Span.End)
			}
		default:
			return b.structural(tok.Span.Start, "unexpected token %s", tok)
		}
	}
	if len(b.stack) > 1 {
		return b.structural(b.top().span.Start, "unterminated %s", b.top())
	}
	return nil
}

func isArg(n, group *Node) bool {
	for _, arg := range n.args {
		if arg == group {
			return true
		}
	}
	return false
}
