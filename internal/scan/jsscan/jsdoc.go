package jsscan

import (
	"strings"

	"plexus/internal/model"
)

// Doc is a parsed /** ... */ comment.
type Doc struct {
	Description string
	Tags        []Tag
}

// Tag is one @tag of a doc comment. Type is the text between braces.
type Tag struct {
	Title       string
	Type        string
	Name        string
	Description string
}

// namedTags take a name after the optional type.
var namedTags = map[string]bool{
	"param":           true,
	"arg":             true,
	"argument":        true,
	"property":        true,
	"prop":            true,
	"event":           true,
	"fires":           true,
	"mixes":           true,
	"extends":         true,
	"augments":        true,
	"polymerBehavior": true,
	"namespace":       true,
	"memberof":        true,
	"mixinFunction":   true,
	"customElement":   true,
	"appliesMixin":    true,
	"typedef":         true,
}

// ParseDoc parses a doc comment. Comments not starting with "/**" yield nil.
func ParseDoc(comment string) *Doc {
	if !strings.HasPrefix(comment, "/**") || comment == "/**/" {
		return nil
	}
	body := strings.TrimSuffix(strings.TrimPrefix(comment, "/**"), "*/")
	doc := &Doc{}
	var desc []string
	var cur *Tag
	flush := func() {
		if cur != nil {
			cur.Description = strings.TrimSpace(cur.Description)
			doc.Tags = append(doc.Tags, *cur)
			cur = nil
		}
	}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimPrefix(line, " ")
		if strings.HasPrefix(line, "@") {
			flush()
			t := parseTag(line[1:])
			cur = &t
			continue
		}
		if cur != nil {
			if cur.Description != "" {
				cur.Description += "\n"
			}
			cur.Description += line
			continue
		}
		desc = append(desc, line)
	}
	flush()
	doc.Description = strings.TrimSpace(strings.Join(desc, "\n"))
	return doc
}

func parseTag(s string) Tag {
	title, rest, _ := strings.Cut(s, " ")
	t := Tag{Title: strings.TrimSpace(title)}
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "{") {
		depth := 0
		for i, r := range rest {
			switch r {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				t.Type = strings.TrimSpace(rest[1:i])
				rest = strings.TrimSpace(rest[i+1:])
				break
			}
		}
	}
	if namedTags[t.Title] && rest != "" {
		name, tail, _ := strings.Cut(rest, " ")
		t.Name = paramName(name)
		rest = strings.TrimSpace(tail)
		rest = strings.TrimPrefix(rest, "- ")
	}
	t.Description = rest
	return t
}

// paramName strips optional-parameter brackets: "[opt=1]" -> "opt".
func paramName(s string) string {
	if strings.HasPrefix(s, "[") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
		s, _, _ = strings.Cut(s, "=")
	}
	return s
}

// Has reports whether the doc carries tag title.
func (d *Doc) Has(title string) bool {
	_, ok := d.Tag(title)
	return ok
}

// Tag returns the first tag called title.
func (d *Doc) Tag(title string) (Tag, bool) {
	if d == nil {
		return Tag{}, false
	}
	for _, t := range d.Tags {
		if t.Title == title {
			return t, true
		}
	}
	return Tag{}, false
}

// All returns every tag whose title is one of titles, in order.
func (d *Doc) All(titles ...string) []Tag {
	if d == nil {
		return nil
	}
	var out []Tag
	for _, t := range d.Tags {
		for _, title := range titles {
			if t.Title == title {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// Desc returns the description, falling back to @description / @summary.
func (d *Doc) Desc() string {
	if d == nil {
		return ""
	}
	if d.Description != "" {
		return d.Description
	}
	for _, title := range []string{"description", "summary"} {
		if t, ok := d.Tag(title); ok {
			return t.Description
		}
	}
	return ""
}

// Privacy returns an explicit privacy annotation.
func (d *Doc) Privacy() (model.Privacy, bool) {
	switch {
	case d.Has("private"):
		return model.PrivacyPrivate, true
	case d.Has("protected"):
		return model.PrivacyProtected, true
	case d.Has("public"):
		return model.PrivacyPublic, true
	default:
		return model.PrivacyPublic, false
	}
}

// privacyOf combines an explicit annotation with the naming convention.
func privacyOf(d *Doc, name string) model.Privacy {
	if p, ok := d.Privacy(); ok {
		return p
	}
	return model.PrivacyFromName(name)
}

// params collects @param tags.
func (d *Doc) params() []model.Param {
	var out []model.Param
	for _, t := range d.All("param", "arg", "argument") {
		p := model.Param{Name: t.Name, Type: t.Type, Description: t.Description}
		if strings.HasPrefix(p.Type, "...") {
			p.Rest = true
			p.Type = strings.TrimPrefix(p.Type, "...")
		}
		out = append(out, p)
	}
	return out
}

// returnType reads @return / @returns.
func (d *Doc) returnType() string {
	if ts := d.All("return", "returns"); len(ts) > 0 {
		return ts[0].Type
	}
	return ""
}

// events collects @event / @fires declarations of a class comment.
func (d *Doc) events() []model.Event {
	var out []model.Event
	for _, t := range d.All("event", "fires") {
		if t.Name == "" {
			continue
		}
		out = append(out, model.Event{Name: t.Name, Description: t.Description})
	}
	return out
}
