// Package curation holds the deterministic business gates between raw feed
// items and marketable signals: the brand-safety filter, the hard-drop and
// intent rule tables, ranking, and the policy data (hook templates, block
// phrases, low-value sources) shared with the sanitizer.
//
// All tables ship with compiled-in defaults and may be replaced wholesale
// through configuration. Matching is case-insensitive over Turkish text;
// word boundaries are written out explicitly because RE2's \b only
// understands ASCII word characters.
package curation
