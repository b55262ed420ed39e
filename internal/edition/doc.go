// Package edition recognizes movie edition markers ("Director's Cut",
// "Extended Edition", "IMAX") and maps their many spellings onto a single
// canonical label so editions reported by different sources compare equal.
package edition
