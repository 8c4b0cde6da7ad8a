package domain

// KeyPrefix is the default prefix for every key contenthub reads from Redis/Valkey.
const KeyPrefix = "contenthub:"
