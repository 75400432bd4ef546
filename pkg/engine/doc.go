// Package engine builds deployment packages from source list items.
//
// The pipeline has three stages. The builder turns each source item into a
// package-native node, encoding field values by declared type and flattening
// stored version history. The identity and lookup resolvers translate
// user/group references and cross-item references into package-local form,
// deduplicating as they go. The serializer renders the finished graph into
// the seven descriptor documents the downstream import engine consumes.
//
// Items are independent of each other, so the generator processes them on a
// bounded worker pool; the shared identity store is the only mutable state
// crossing workers and is guarded by its own lock. Serialization happens
// strictly after every item has completed, because the user/group map
// depends on the fully populated identity set.
package engine
