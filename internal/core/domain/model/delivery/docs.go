// Package delivery provides the Delivery aggregate and its status state machine.
//
// A Delivery is the drop-off of exactly one order. It is materialized when the
// order is packed, carries a display snapshot of the customer (name, phone,
// address, zone) plus the geocoded point consumed by the route optimizer, and
// moves scheduled -> in_transit -> delivered, with failed reachable from
// scheduled or in_transit and cancelled reachable from scheduled only.
package delivery
