// Package mapping provides mapping schemas: ordered registrations of
// metadata paths to mapping targets, their merge rules and YAML files.
//
// # Target grammar
//
// A target is declared as a string:
//
//	image               bare name: alias, registered type or function
//	Rila\User::factory  static method of a registered type
//	filter:my_filter    host-registered filter
//	image[]             any of the above, applied to every element
//
// A list of targets is a chain: the value is threaded through each
// target in turn. A map is a nested schema, used for the rows of a
// repeater or flexible content field.
//
// # Paths
//
// Registration paths are plain keys ("author"), element-wise keys
// ("tags[]") or dotted paths. A dotted path registers the rest of the
// path in the nested schema of its first segment:
//
//	blocks.title        title of every row of blocks
//	blocks.hero.image   image of every row of blocks typed "hero"
//
// Registering the exact same path again overrides the earlier entry.
// There is no deep merging inside one key.
//
// # Schema files
//
// Schemas can be declared in YAML:
//
//	version: "1"
//	max_depth: 16
//	aliases:
//	  hero: image
//	schemas:
//	  post:
//	    author: user
//	    tags[]: filter:tag_link
//	    blocks:
//	      image: image
//	      hero:
//	        background: image
//
// Key order is preserved so that later entries override earlier ones.
package mapping
