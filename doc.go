// Package mdns implements the core of a Multicast DNS (mDNS) engine
// per RFC 6762: interface discovery, multicast transport, inbound
// duplicate suppression, the wire codec, and dispatch of queries and
// answers to registered consumers. It does not implement the
// service-profile/advertisement layer (probing, announcing, service
// instance record assembly) - that is a client of this package, built
// on the Engine type's Start/Stop/SendQuery/SendAnswer/Resolve surface
// and its OnQuery/OnAnswer/OnMalformed/OnInterfacesChanged events.
package mdns
