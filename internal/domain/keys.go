package domain

// KeyPrefix namespaces every key the semantic server writes to Redis.
const KeyPrefix = "menurank:"

// EmbeddedDocsKey is the set of document IDs that have a cached embedding.
const EmbeddedDocsKey = KeyPrefix + "embedded_docs"
