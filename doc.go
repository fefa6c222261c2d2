/*
Package main is the CLI of the Findy agent core. The agent core is a
multi-tenant Aries agent: every tenant has its own wallet and records, and the
tenants are served by the same process.

You can use the agent core and its Go packages roughly for three purposes:

1. As a CLI tool for creating connection invitations, accepting them and
running the issue credential protocol over the connections.

2. As a relay service which receives the envelopes of the other agents to the
tenants' mailboxes and re-sends the messages which weren't delivered.

3. As a library. The agent/cloud package is the entry point: build the Agent
once with cloud.NewBuilder and pass it down.

The outbound messages are sent only after the protocol state is stored. If
the sending fails the state stays and the message waits in the outbox of the
tenant, see the outbox commands.

The configuration is read from the config file, FCLI_ prefixed environment
variables and the flags, see findy-agent-core --help.
*/
package main
