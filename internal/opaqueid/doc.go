// Package opaqueid renders typed natural keys as opaque, URL-safe strings.
//
// An ID is a tuple: a type tag followed by the key fields, each written
// with an order-preserving binary encoding and rendered in base32hex
// without padding. Because the base32hex alphabet is in ascending ASCII
// order, comparing two IDs of the same tag as strings gives the same
// result as comparing their keys field by field.
package opaqueid
