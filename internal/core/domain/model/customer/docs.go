// Package customer provides the Customer aggregate: a tiffin subscriber with a
// contact, a delivery address (geocoded when possible), a signed account balance
// and an account status. Only active customers receive new orders; suspended
// and inactive customers are skipped by bulk order creation.
package customer
