package kses

// DefaultProtocols returns the URL schemes allowed by the built-in policies.
func DefaultProtocols() []string {
	return []string{
		"ftp", "http", "https", "irc", "mailto", "news", "nntp", "rtsp", "sftp",
		"ssh", "tel", "telnet", "webcal",
	}
}

// BasicPolicy returns the policy for ordinary users, such as forum posts and
// comments: inline formatting, lists, links, images, quotes and code.
// Every call returns a fresh copy.
func BasicPolicy() *Policy {
	return &Policy{
		AllowedTags:      basicTags(),
		AllowedProtocols: DefaultProtocols(),
	}
}

// AdminPolicy returns BasicPolicy extended with the tags an administrator
// may use: tables, media, forms controls, sectioning elements, headings and
// iframes. Every call returns a fresh copy.
func AdminPolicy() *Policy {
	tags := basicTags()
	for tag, rules := range adminTags() {
		if _, ok := tags[tag]; !ok {
			tags[tag] = rules
		}
	}
	return &Policy{
		AllowedTags:      tags,
		AllowedProtocols: DefaultProtocols(),
	}
}

// textAlign restricts style attributes to horizontal alignment.
func textAlign() Constraint {
	return Checked(Content(
		"text-align: center;",
		"text-align: left;",
		"text-align: justify;",
		"text-align: right;",
	))
}

// attrs allows the named attributes without constraints.
func attrs(names ...string) AttributeRules {
	rules := make(AttributeRules, len(names))
	for _, name := range names {
		rules[name] = Unconstrained
	}
	return rules
}

func with(rules AttributeRules, name string, c Constraint) AttributeRules {
	rules[name] = c
	return rules
}

func basicTags() TagRules {
	return TagRules{
		"a": with(attrs("class", "href", "rel", "rev", "name", "target"),
			"download", Checked(Valueless(true))),
		"abbr":       attrs("class", "lang", "title"),
		"b":          attrs("class"),
		"blockquote": attrs("cite", "class", "lang"),
		"br":         {},
		"cite":       attrs("class", "dir", "lang"),
		"code":       attrs("class"),
		"dd":         attrs("class"),
		"div":        with(attrs("align", "class", "dir", "lang"), "style", textAlign()),
		"dl":         attrs("class"),
		"dt":         attrs("class"),
		"em":         attrs("class"),
		"i":          attrs("aria-hidden", "class"),
		"img": attrs("alt", "align", "class", "border", "height", "hspace",
			"longdesc", "vspace", "src", "usemap", "width"),
		"kbd":    attrs("class"),
		"li":     attrs("class"),
		"mark":   attrs("class"),
		"ol":     attrs("class"),
		"p":      with(attrs("align", "class", "dir", "lang"), "style", textAlign()),
		"pre":    attrs("class", "width"),
		"small":  attrs("class"),
		"strong": attrs("class"),
		"sub":    attrs("class"),
		"sup":    attrs("class"),
		"u":      attrs("class"),
		"ul":     attrs("class"),
		"var":    attrs("class"),
	}
}

func adminTags() TagRules {
	sectioning := func() AttributeRules { return attrs("align", "class", "dir", "lang") }
	heading := func() AttributeRules { return with(attrs("align", "class"), "style", textAlign()) }
	tableSection := func() AttributeRules { return attrs("align", "char", "charoff", "class", "valign") }

	return TagRules{
		"acronym": attrs("class", "lang", "title"),
		"address": attrs("class", "lang", "title"),
		"area":    attrs("alt", "class", "coords", "href", "nohref", "shape", "target"),
		"article": sectioning(),
		"aside":   sectioning(),
		"audio":   attrs("autoplay", "class", "controls", "loop", "muted", "preload", "src"),
		"bdi":     attrs("class"),
		"bdo":     attrs("class", "dir"),
		"big":     attrs("class"),
		"button":  attrs("class", "disabled", "name", "type", "value"),
		"caption": attrs("align"),
		"col": attrs("align", "char", "charoff", "class", "span", "dir",
			"valign", "width"),
		"colgroup":   attrs("align", "char", "charoff", "class", "span", "valign", "width"),
		"del":        attrs("class", "datetime"),
		"details":    attrs("align", "class", "dir", "lang", "open"),
		"dfn":        attrs("class"),
		"fieldset":   attrs("class"),
		"figcaption": sectioning(),
		"figure":     sectioning(),
		"font":       attrs("color", "class", "face", "size"),
		"footer":     sectioning(),
		"h1":         heading(),
		"h2":         heading(),
		"h3":         heading(),
		"h4":         heading(),
		"h5":         heading(),
		"h6":         heading(),
		"header":     sectioning(),
		"hgroup":     sectioning(),
		"hr":         attrs("align", "class", "noshade", "size", "width"),
		"iframe": attrs("allowfullscreen", "frameborder", "height", "sandbox",
			"scrolling", "src", "marginheight", "marginwidth", "title", "width"),
		"ins":      attrs("datetime", "cite", "class"),
		"label":    attrs("class", "for"),
		"legend":   attrs("align", "class"),
		"map":      attrs("class", "name"),
		"menu":     attrs("class", "type"),
		"meter":    attrs("class"),
		"nav":      sectioning(),
		"output":   attrs("class"),
		"progress": attrs("class"),
		"q":        attrs("cite", "class"),
		"rp":       attrs("class"),
		"rt":       attrs("class"),
		"ruby":     attrs("class"),
		"s":        attrs("class"),
		"samp":     attrs("class"),
		"section":  sectioning(),
		"span":     sectioning(),
		"strike":   attrs("class"),
		"summary":  sectioning(),
		"table": attrs("align", "bgcolor", "border", "cellpadding", "cellspacing",
			"class", "dir", "rules", "summary", "width"),
		"tbody": tableSection(),
		"td": attrs("abbr", "align", "axis", "bgcolor", "char", "charoff", "class",
			"colspan", "dir", "headers", "height", "nowrap", "rowspan", "scope",
			"valign", "width"),
		"tfoot": tableSection(),
		"th": attrs("abbr", "align", "axis", "bgcolor", "char", "charoff", "class",
			"colspan", "headers", "height", "nowrap", "rowspan", "scope", "valign",
			"width"),
		"thead": tableSection(),
		"title": attrs("class"),
		"tr":    attrs("align", "bgcolor", "char", "charoff", "class", "valign"),
		"track": attrs("class", "default", "kind", "label", "src", "srclang"),
		"tt":    attrs("class"),
		"video": attrs("autoplay", "class", "controls", "height", "loop", "muted",
			"poster", "preload", "src", "width"),
		"wbr": attrs("class"),
	}
}
