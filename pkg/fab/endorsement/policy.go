/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package endorsement

import (
	"fmt"
	"strings"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/status"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
)

// Policy names how many endorsements, and from which organizations, an
// operation needs. Nodes enforce the chain's own policy independently.
//
// With an empty Orgs list any organization counts. A zero Threshold with a
// non-empty Orgs list requires every listed organization.
type Policy struct {
	Threshold int      `mapstructure:"threshold"`
	Orgs      []string `mapstructure:"orgs"`
}

// Evaluate returns PolicyNotSatisfied unless entries meet the policy
func (p Policy) Evaluate(entries []*fab.EndorsementEntry) error {
	allowed := make(map[string]struct{}, len(p.Orgs))
	for _, org := range p.Orgs {
		allowed[org] = struct{}{}
	}

	counted := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		if _, ok := allowed[e.OrgID]; len(allowed) > 0 && !ok {
			continue
		}
		counted[e.OrgID] = struct{}{}
	}

	required := p.Threshold
	if required <= 0 {
		required = len(allowed)
	}
	if len(counted) >= required {
		return nil
	}

	msg := fmt.Sprintf("%d of %d required endorsements", len(counted), required)
	if len(p.Orgs) > 0 {
		msg += fmt.Sprintf(" from [%s]", strings.Join(p.Orgs, ","))
	}
	return status.New(status.EndorsementStatus, status.PolicyNotSatisfied.ToInt32(), msg, nil)
}
