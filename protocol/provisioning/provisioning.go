// Package provisioning sets up the tenant's issuer identity.
package provisioning

import (
	"context"
	"errors"

	"github.com/findy-network/findy-agent-core/agent/actx"
	"github.com/findy-network/findy-agent-core/agent/kms"
	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
)

// ErrProvisioned is returned when the tenant already has an issuer identity.
var ErrProvisioned = errors.New("tenant already provisioned")

// Config of the issuer. The Seed is optional 32 byte seed of the issuer
// key, the random key is created when it's empty.
type Config struct {
	Label    string
	Endpoint string
	Seed     string
}

// Service is the default provisioning service.
type Service struct {
	store record.Store
}

func NewService(store record.Store) *Service {
	assert.INotNil(store)
	return &Service{store: store}
}

func (s *Service) repo(ac *actx.Context) *record.Repo[*record.ProvisioningRecord] {
	return record.Provisionings(record.Scoped(s.store, ac.TenantID))
}

// Provision creates the issuer key and stores the provisioning record.
func (s *Service) Provision(ctx context.Context, ac *actx.Context, cfg Config) (rec *record.ProvisioningRecord, err error) {
	defer err2.Handle(&err, "provision")

	repo := s.repo(ac)
	if _, err := repo.Get(ctx, record.ProvisioningID); err == nil {
		return nil, ErrProvisioned
	} else if !errors.Is(err, record.ErrNotFound) {
		return nil, err
	}

	verkey := try.To1(ac.Wallet.CreateKey(ctx, cfg.Seed))
	rec = &record.ProvisioningRecord{
		IssuerDID:    try.To1(kms.DID(verkey)),
		IssuerVerKey: verkey,
		Label:        cfg.Label,
		Endpoint:     cfg.Endpoint,
	}
	try.To(repo.Add(ctx, rec))
	glog.V(1).Infof("tenant %q: provisioned issuer %s", ac.TenantID, rec.IssuerDID)
	return rec, nil
}

// Get returns the provisioning record or the error wrapping
// record.ErrNotFound when the tenant isn't provisioned.
func (s *Service) Get(ctx context.Context, ac *actx.Context) (*record.ProvisioningRecord, error) {
	return s.repo(ac).Get(ctx, record.ProvisioningID)
}
