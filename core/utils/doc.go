// Package utils provides conversion helpers shared by the inventory packages:
// slot indices decoded from JSON object keys and boolean query flags.
package utils
