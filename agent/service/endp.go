package service

// Addr is the public access point of an Agent: the endpoint where it
// receives wire messages, its verkey, and the optional mediator routing keys.
type Addr struct {
	Endp        string   `json:"endpoint"`
	Key         string   `json:"verkey"`
	RoutingKeys []string `json:"routingKeys,omitempty"`
}

// Empty returns true if the address has no endpoint.
func (a Addr) Empty() bool {
	return a.Endp == ""
}
