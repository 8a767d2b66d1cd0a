// Package inventory holds the product catalog shown by the inventory view.
//
// The catalog lives in memory and starts from a fixed seed. Reads are open to every
// signed-in role; writes are gated by the caller on the inventory.write capability.
// The package itself knows nothing about sessions or roles.
package inventory
