// Package subscription provides the Subscription aggregate: a customer's
// recurring meal plan with a service period, an optional pause window and the
// daily rate charged on each generated order.
package subscription
