package domain

// KeyPrefix namespaces every key the service writes to the vector database.
const KeyPrefix = "staffrag:"
