// resolver.go -
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

package xref

import (
	"fmt"
	"sort"

	"github.com/olitheolix/nobby/latex/render"
	"github.com/olitheolix/nobby/latex/scanner"
)

// Countable describes how a construct is numbered.
type Countable struct {
	// Kind groups constructs which share one sequence of ordinals, for
	// example all equation environments.
	Kind string

	// Counter is the LaTeX counter stepped by the construct.
	Counter string

	// Rows is set for the multi-line equation environments, which
	// number every line separately.
	Rows bool

	// Prefix is the printed name, e.g. "Theorem".
	Prefix string
}

// Target is a numbered construct a label can refer to.
type Target struct {
	Kind    string
	Ordinal int
	Number  string
	Anchor  string
	Prefix  string
}

// Binding records the target of a label.  Target is nil if the label
// was defined before any numbered construct.
type Binding struct {
	Label  string
	Target *Target
	Anchor string
	Span   scanner.Span
}

// Number returns the printed form of a reference to the binding.
func (b *Binding) Number() string {
	if b.Target == nil {
		return ""
	}
	return b.Target.Number
}

// Entry describes the target of an anchor.
type Entry struct {
	Kind    string
	Ordinal int
}

// Resolver keeps track of counters and labels during the conversion
// of one document.
type Resolver struct {
	countable map[string]*Countable
	counters  map[string]*counter
	ordinals  map[string]int
	sec       SecNo

	current *Target
	labels  map[string]*Binding
	anchors anchors
}

var equationEnvs = map[string]bool{
	"align": true, "gather": true, "eqnarray": true,
	"flalign": true, "alignat": true,
}

// NewResolver creates a Resolver which knows about the numbered
// constructs of the LaTeX article class.  Theorem-like environments
// are added using DefineTheorem.
func NewResolver() *Resolver {
	r := &Resolver{
		countable: make(map[string]*Countable),
		counters:  make(map[string]*counter),
		ordinals:  make(map[string]int),
		labels:    make(map[string]*Binding),
	}
	for _, name := range []string{"equation", "figure", "table"} {
		r.counters[name] = &counter{Name: name}
	}
	r.countable["equation"] = &Countable{Kind: "equation", Counter: "equation"}
	r.countable["multline"] = &Countable{Kind: "equation", Counter: "equation"}
	for name := range equationEnvs {
		r.countable[name] = &Countable{Kind: "equation", Counter: "equation", Rows: true}
	}
	for _, name := range []string{"figure", "table"} {
		c := &Countable{Kind: name, Counter: name}
		r.countable[name] = c
		r.countable[name+"*"] = c
	}
	for name := range sectionLevels {
		r.countable[name] = &Countable{Kind: name, Counter: name}
	}
	return r
}

// DefineTheorem declares a theorem-like environment, as done by
// \newtheorem.  If counter names an existing environment or counter,
// the new environment shares its numbers.  Otherwise a new counter is
// created, which is reset by the counter `within` if that is non-empty.
func (r *Resolver) DefineTheorem(name, counterName, prefix, within string) error {
	if counterName == "" {
		counterName = name
	}
	if c, ok := r.countable[counterName]; ok && counterName != name {
		counterName = c.Counter
	}
	if _, ok := r.counters[counterName]; !ok {
		if counterName != name {
			return fmt.Errorf("theorem %q: unknown counter %q", name, counterName)
		}
		r.counters[counterName] = &counter{Name: counterName, Parent: within}
	}
	r.countable[name] = &Countable{
		Kind:    counterName,
		Counter: counterName,
		Prefix:  prefix,
	}
	return nil
}

// NumberWithin makes the counter child reset whenever parent is
// stepped, as done by \numberwithin.
func (r *Resolver) NumberWithin(child, parent string) error {
	c, ok := r.counters[child]
	if !ok {
		return fmt.Errorf("unknown counter %q", child)
	}
	if _, ok := sectionLevels[parent]; !ok {
		if _, ok := r.counters[parent]; !ok {
			return fmt.Errorf("unknown counter %q", parent)
		}
	}
	c.Parent = parent
	return nil
}

// Countable returns the numbering information for a construct name, or
// nil if the construct is not numbered.
func (r *Resolver) Countable(name string) *Countable {
	return r.countable[name]
}

// Current returns the target the next label would bind to.
func (r *Resolver) Current() *Target {
	return r.current
}

// Restore makes t the current target again.  This is used at the end
// of an environment, since LaTeX keeps the label target local to it.
func (r *Resolver) Restore(t *Target) {
	r.current = t
}

// Step advances the counter of the construct name and makes the new
// target current.  For constructs which are not numbered, Step does
// nothing and returns nil.
func (r *Resolver) Step(name string) *Target {
	c := r.countable[name]
	if c == nil {
		return nil
	}

	var number string
	if level, ok := sectionLevels[c.Counter]; ok {
		r.sec = r.sec.Inc(level)
		number = r.sec.String()
		for l := level; l <= len(sectionLevels); l++ {
			r.resetCounters(l, sectionName(l))
		}
	} else {
		ctr := r.counters[c.Counter]
		number = ctr.Inc()
		r.resetCounters(0, c.Counter)
	}

	r.ordinals[c.Kind]++
	t := &Target{
		Kind:    c.Kind,
		Ordinal: r.ordinals[c.Kind],
		Number:  number,
		Prefix:  c.Prefix,
	}
	t.Anchor = r.anchors.alloc(c.Kind+"-"+number, Entry{Kind: t.Kind, Ordinal: t.Ordinal})
	r.current = t
	return t
}

// resetCounters resets all counters which are numbered within the
// counter `name`.  For sections, level gives the depth of `name`.
func (r *Resolver) resetCounters(level int, name string) {
	for _, ctr := range r.counters {
		if ctr.Parent != name {
			continue
		}
		ctr.Value = 0
		if level > 0 {
			prefix := make(SecNo, level)
			copy(prefix, r.sec)
			ctr.Prefix = prefix.String() + "."
		} else {
			ctr.Prefix = r.counters[name].String() + "."
		}
		r.resetCounters(0, ctr.Name)
	}
}

// Bind binds a label to the current target.
func (r *Resolver) Bind(label string, span scanner.Span) (*Binding, error) {
	if old, ok := r.labels[label]; ok {
		return nil, &DuplicateLabelError{
			Label:  label,
			First:  old.Span,
			Second: span,
		}
	}
	b := &Binding{
		Label:  label,
		Target: r.current,
		Span:   span,
	}
	var e Entry
	if b.Target != nil {
		e = Entry{Kind: b.Target.Kind, Ordinal: b.Target.Ordinal}
	}
	b.Anchor = r.anchors.alloc(label, e)
	r.labels[label] = b
	return b, nil
}

// Anchor allocates a unique anchor id which is not associated with a
// numbered construct.
func (r *Resolver) Anchor(base string) string {
	return r.anchors.alloc(base, Entry{})
}

// Resolve looks up the binding of a label.
func (r *Resolver) Resolve(label string) (*Binding, error) {
	b, ok := r.labels[label]
	if !ok {
		return nil, &UnresolvedLabelError{Label: label}
	}
	return b, nil
}

// Snapshot returns the current values of all counters, in the form
// needed to continue the numbering in a separate LaTeX run.
func (r *Resolver) Snapshot() []render.Counter {
	var res []render.Counter
	for level := 1; level <= len(sectionLevels); level++ {
		if v := r.sec.Get(level); v > 0 {
			res = append(res, render.Counter{Name: sectionName(level), Value: v})
		}
	}
	var names []string
	for name, ctr := range r.counters {
		if ctr.Value > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		res = append(res, render.Counter{Name: name, Value: r.counters[name].Value})
	}
	return res
}

// Table returns all anchors allocated so far, together with the
// numbered construct they point to.
func (r *Resolver) Table() map[string]Entry {
	res := make(map[string]Entry, len(r.anchors.used))
	for id, e := range r.anchors.used {
		res[id] = e
	}
	return res
}

// Labels returns all label bindings, in no particular order.
func (r *Resolver) Labels() []*Binding {
	res := make([]*Binding, 0, len(r.labels))
	for _, b := range r.labels {
		res = append(res, b)
	}
	return res
}
