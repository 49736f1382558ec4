// Copyright 2023 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package policy

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/document"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/field"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/policy/common"
	"github.com/kristoffer-paulsson/angelos-go/pkg/crypto"
	"github.com/kristoffer-paulsson/angelos-go/pkg/portfolio"
)

// GenerateDomain creates the self-issued network root document for pp's
// entity, if one does not already exist. Calling it again on a portfolio
// that already carries a Domain is a no-op returning the existing document.
func GenerateDomain(pp *portfolio.PrivatePortfolio, today time.Time) (*document.Domain, error) {
	if pp.Entity == nil || pp.PrivKeys == nil {
		return nil, ErrNoEntity
	}
	if pp.Domain != nil {
		return pp.Domain, nil
	}

	entityID := pp.Entity.Meta().ID
	dom := &document.Domain{
		Header: document.Header{ID: uuid.New(), Type: document.TypeNetDomain,
			Created: field.NewDate(today), Expires: field.NewDate(today.Add(common.IdentityValidity))},
		Issued: document.Issued{Issuer: entityID},
	}
	if err := crypto.Sign(dom, pp, today, false); err != nil {
		return nil, fmt.Errorf("policy: generate domain: %w", err)
	}
	if errs := dom.Validate(); errs != nil {
		return nil, fmt.Errorf("policy: generate domain: %w", errs)
	}
	pp.Domain = dom
	return dom, nil
}

// NodeData is the caller-supplied input to GenerateNode.
type NodeData struct {
	Role   string
	Device string
	Serial string
}

// GenerateNode issues a Node document for pp's entity under dom. A "server"
// role node must discover its own addressing information through host; any
// other role carries no Location. dom must have been issued by the same
// entity generating the node, or ErrDomainIssuerMismatch is returned.
func GenerateNode(data NodeData, dom *document.Domain, host HostInfo, pp *portfolio.PrivatePortfolio, today time.Time) (*document.Node, error) {
	if pp.Entity == nil || pp.PrivKeys == nil {
		return nil, ErrNoEntity
	}
	if !document.NodeRoles.Has(data.Role) {
		return nil, ErrUnsupportedRole
	}
	entityID := pp.Entity.Meta().ID
	if dom.Issuer != entityID {
		return nil, ErrDomainIssuerMismatch
	}

	node := &document.Node{
		Header: document.Header{ID: uuid.New(), Type: document.TypeNetNode,
			Created: field.NewDate(today), Expires: field.NewDate(today.Add(common.IdentityValidity))},
		Issued: document.Issued{Issuer: entityID},
		Domain: dom.Meta().ID,
		Role:   data.Role,
		Device: data.Device,
		Serial: data.Serial,
	}

	if data.Role == "server" {
		loc, err := discoverLocation(host)
		if err != nil {
			return nil, fmt.Errorf("policy: generate node: %w", err)
		}
		node.Location = loc
	}

	if err := crypto.Sign(node, pp, today, false); err != nil {
		return nil, fmt.Errorf("policy: generate node: %w", err)
	}
	if errs := node.Validate(); errs != nil {
		return nil, fmt.Errorf("policy: generate node: %w", errs)
	}
	pp.Nodes = append(pp.Nodes, node)
	return node, nil
}

func discoverLocation(host HostInfo) (*document.Location, error) {
	names, err := host.Hostnames()
	if err != nil {
		return nil, err
	}
	addrs, err := host.Addresses()
	if err != nil {
		return nil, err
	}
	return &document.Location{Hostname: names, IP: addrs}, nil
}

// GenerateNetwork aggregates pp's server-role nodes into a published Host
// list and issues a Network document for dom. At least one node must carry
// an addressable Location, per DocumentNoHost.
func GenerateNetwork(dom *document.Domain, pp *portfolio.PrivatePortfolio, today time.Time) (*document.Network, error) {
	if pp.Entity == nil || pp.PrivKeys == nil {
		return nil, ErrNoEntity
	}
	entityID := pp.Entity.Meta().ID
	if dom.Issuer != entityID {
		return nil, ErrDomainIssuerMismatch
	}

	var hosts []document.Host
	for _, n := range pp.Nodes {
		if n.Role != "server" || n.Location == nil || n.Location.Empty() {
			continue
		}
		hosts = append(hosts, document.Host{
			Node:     n.Meta().ID,
			IP:       n.Location.IP,
			Hostname: n.Location.Hostname,
		})
	}

	net := &document.Network{
		Header: document.Header{ID: uuid.New(), Type: document.TypeNetNetwork,
			Created: field.NewDate(today), Expires: field.NewDate(today.Add(common.IdentityValidity))},
		Issued: document.Issued{Issuer: entityID},
		Domain: dom.Meta().ID,
		Hosts:  hosts,
	}

	if err := crypto.Sign(net, pp, today, false); err != nil {
		return nil, fmt.Errorf("policy: generate network: %w", err)
	}
	if errs := net.Validate(); errs != nil {
		return nil, fmt.Errorf("policy: generate network: %w", errs)
	}
	pp.Network = net
	return net, nil
}
