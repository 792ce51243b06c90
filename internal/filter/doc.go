// Package filter prunes a document tree down to a whitelisted set of keys.
//
// [Filter] keeps whitelisted keys verbatim, except for the "children" key
// whose elements are filtered recursively. Non-whitelisted mappings and
// sequences survive only as wrappers around whitelisted content; everything
// else is dropped.
//
// The key set is an immutable [Whitelist] passed to every call. Named key
// sets are available as profiles (see [ResolveProfile]).
package filter
