// Package kses is an allow-list HTML filter for user supplied text.
//
// # Overview
//
// kses does not build a DOM. It scans its input for tag-like tokens and
// decides for each one on its own whether it survives, which of its
// attributes are kept and what is left of their values. Text outside of
// tags is copied unchanged, so the filter never loses content that is not
// markup. The function is total: every byte string has an output, and the
// output for invalid UTF-8 is the empty string.
//
// # Policies
//
// A [Policy] controls:
//   - Which tags are allowed, by lowercase name ([Policy.AllowedTags])
//   - Which attributes each tag may carry, and the [Constraint] on each value
//   - Which URL schemes may start an attribute value ([Policy.AllowedProtocols])
//   - Whether HTML comments are kept (the "!--" tag key)
//
// Two built-in policies are provided:
//   - [BasicPolicy]: formatting, lists, links, images and quotes, suitable
//     for comments and forum posts.
//   - [AdminPolicy]: the basic set plus tables, media, sectioning elements,
//     headings and iframes.
//
// Policies can also be loaded from YAML or JSON files with the profile
// subpackage.
//
// # Security
//
// kses defends against the usual XSS vectors:
//   - Tags and attributes that are not allowed, including event handlers
//   - Disallowed URL schemes, even when written with mixed case, embedded
//     whitespace, soft hyphens or numeric entities, or repeated
//     ("javascript:javascript:")
//   - Malformed entities, which are disarmed to literal text
//   - Quote confusion and unbalanced brackets inside tags
//
// # Thread Safety
//
// Filter is safe for concurrent use. A Policy must not be mutated while it
// is being used; use profile.Watcher for policies that change at runtime.
//
// # Example
//
//	p := kses.AdminPolicy()
//	clean := p.Filter(userInput)
package kses
