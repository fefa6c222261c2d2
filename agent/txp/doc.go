package txp

//go:generate mockgen -destination txpmock/transport_mock.go -package txpmock github.com/findy-network/findy-agent-core/agent/txp Transport
