// Package entity is the content object model built on top of the metadata
// tree and the mapping engine: posts, attachments, terms, users, comments,
// widgets, the site and dates.
//
// Every entity wraps an Item. Reading a property runs an ordered resolver
// pipeline:
//
//  1. external properties added with Item.AddExternal
//  2. the kind's method table
//  3. reconstructed metadata, under the translated property name
//  4. the kind's getter
//  5. the record data, under the translated property name
//
// The first value found passes the "property.raw" filter, is mapped
// through the item schema when truthy, passes the "property.mapped"
// filter and is cached under the requested name.
package entity
