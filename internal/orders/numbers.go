package orders

import (
	"crypto/rand"
	"fmt"
)

const orderNumberAlphabet = "ABCDEFGHJKMNPQRSTVWXYZ0123456789"

const orderNumberSuffixLength = 10

// GenerateOrderNumber produces an opaque order number like ORD-7K2M9QX4TB.
// The generator alone does not guarantee uniqueness; the orders table carries
// a unique index and creation retries once on collision.
func GenerateOrderNumber() (string, error) {
	buf := make([]byte, orderNumberSuffixLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}
	return "ORD-" + string(buf), nil
}

// GroupNumber derives the sequential group number within a parent order.
func GroupNumber(orderNumber string, position int) string {
	return fmt.Sprintf("%s-G%d", orderNumber, position)
}
