// Package signature defines the sketch payload stored by the index packages:
// a Signature is a named collection of MinHash sketches laid out the way
// sourmash serializes them to JSON. The package supports cloning, value
// equality, content digests, JSON load/save and the similarity measures used
// by index search (Jaccard, containment and angular similarity).
package signature
