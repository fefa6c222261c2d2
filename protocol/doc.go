/*
Package protocol is package for Aries protocol services. The services
implement the actual protocol state transitions: each one takes the agent
context and the protocol input, stores the new state of the protocol record
and returns it together with the outbound message. Sending the message is
the caller's job. The protocol specific message implementations are located
in std package.
*/
package protocol
