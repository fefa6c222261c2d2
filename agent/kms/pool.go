package kms

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/findy-network/findy-agent-core/agent/ssi"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// DefaultProtocolVersion is used when the pool config doesn't tell it.
const DefaultProtocolVersion = 2

// Pool is a ledger pool handle read from the genesis file.
type Pool struct {
	name    string
	version uint64
	txns    []json.RawMessage
}

// OpenPool reads the genesis transactions, one JSON object per line. Missing
// or empty genesis file is an error.
func OpenPool(cfg ssi.PoolCfg) (p *Pool, err error) {
	defer err2.Handle(&err, "open pool")

	try.To(cfg.Validate())
	data := try.To1(os.ReadFile(cfg.GenesisFile))

	p = &Pool{name: cfg.Name, version: cfg.ProtocolVersion}
	if p.version == 0 {
		p.version = DefaultProtocolVersion
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; scanner.Scan(); line++ {
		txn := bytes.TrimSpace(scanner.Bytes())
		if len(txn) == 0 {
			continue
		}
		if !json.Valid(txn) {
			return nil, fmt.Errorf("genesis line %d: invalid JSON", line)
		}
		p.txns = append(p.txns, append(json.RawMessage(nil), txn...))
	}
	try.To(scanner.Err())
	if len(p.txns) == 0 {
		return nil, errors.New("genesis file has no transactions")
	}
	glog.V(3).Infof("pool %s opened with %d genesis txns", p.name, len(p.txns))
	return p, nil
}

func (p *Pool) Name() string {
	return p.name
}

func (p *Pool) ProtocolVersion() uint64 {
	return p.version
}

// Genesis returns the genesis transactions of the pool.
func (p *Pool) Genesis() []json.RawMessage {
	return p.txns
}

func (p *Pool) Close() error {
	glog.V(3).Infoln("pool closed:", p.name)
	return nil
}
