/*
Package agent is a package for the multi-tenant agent and its services. The
cloud.Agent is the most important abstraction of the package. Other packages
actx, comm, endp, sec, txp, etc. offer specific services for the cloud.Agent
to be able to perform its duties for the tenants.

The agent package is empty itself. All the functionality is inside
sub-packages. Summary of the packages:

 actx      agent context of the tenant and the single-flight resolver of them
 cloud     Agent facade, its builder and the protocol orchestrators
 comm      messenger which packs and sends the messages, the outbox
 endp      agent endpoint services to parse and build URLs
 kms       local keystore: bolt wallet files, ed25519 keys, message packing
 pltype    protocol message types, media types and record types
 record    protocol records, their query and the record store backends
 sec       pipe which packs the messages between two keys
 service   agent address: endpoint, key and routing keys
 ssi       keystore and ledger pool interfaces and their configuration
 txp       transports and the dispatcher which selects them by the scheme
 utils     settings, ids and encoding helpers
*/
package agent
