// Package mask formats raw keystrokes into the display masks used by the
// briefing form: CNPJ (tax-id), CEP (postal code) and Brazilian phone numbers.
//
// Every rule strips non-digit characters first, caps the digit count and then
// re-inserts literal separators progressively, so a partially typed value is
// always a prefix of the final mask. All functions are pure and idempotent:
//
//	mask.TaxID("12345678000190")   // "12.345.678/0001-90"
//	mask.Postal("90010-1")          // "90010-1"
//	mask.Phone("5199379613")        // "(51) 9937-9613"
package mask
