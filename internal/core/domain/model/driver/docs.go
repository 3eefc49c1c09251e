// Package driver contains the Driver entity: the registry record the coordinator
// picks from when assigning a Ready delivery order.
package driver
