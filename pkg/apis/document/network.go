// Copyright 2022 The Sigstore Authors.
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

package document

import (
	"net"

	"github.com/google/uuid"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/field"
	"github.com/kristoffer-paulsson/angelos-go/pkg/apis/policy/common"
	"k8s.io/apimachinery/pkg/util/sets"
	"knative.dev/pkg/apis"
)

// NodeRoles enumerates the admitted Node.Role values.
var NodeRoles = sets.NewString("client", "server", "backup")

func init() {
	Register(TypeNetDomain, func() Document { return &Domain{Header: Header{Type: TypeNetDomain}} })
	Register(TypeNetNode, func() Document { return &Node{Header: Header{Type: TypeNetNode}} })
	Register(TypeNetNetwork, func() Document { return &Network{Header: Header{Type: TypeNetNetwork}} })
}

// Domain is the self-issued network root.
type Domain struct {
	Header
	Updatable
	Issued
	Signed
}

func (d *Domain) Meta() *Header    { return &d.Header }
func (d *Domain) TypeTag() TypeTag { return d.Type }

func (d *Domain) Native() map[string]interface{} {
	return map[string]interface{}{
		"id": d.ID, "type": d.Type, "created": d.Created, "updated": d.Updated,
		"expires": d.Expires, "issuer": d.Issuer, "signature": d.Sig,
	}
}

func (d *Domain) Validate() (errs *apis.FieldError) {
	errs = errs.Also(field.ValidateUUID("id", d.ID, true))
	errs = errs.Also(d.Header.CheckType(TypeNetDomain))
	errs = errs.Also(field.ValidateDate("created", d.Created, true))
	errs = errs.Also(field.ValidateDate("expires", d.Expires, true))
	errs = errs.Also(common.CheckUpdated(d.Created, d.Updated))
	errs = errs.Also(common.CheckExpiry(d.Touched(d.Created), d.Expires, common.IdentityMinExpiry))
	errs = errs.Also(field.ValidateUUID("issuer", d.Issuer, true))
	return errs
}

// Location is a node's host-discoverable addressing information.
type Location struct {
	Hostname []string
	IP       []net.IP
}

func (l Location) Native() map[string]interface{} {
	return map[string]interface{}{"hostname": l.Hostname, "ip": l.IP}
}

func (l Location) Empty() bool { return len(l.Hostname) == 0 && len(l.IP) == 0 }

// Node is a single device participating in a Domain.
type Node struct {
	Header
	Updatable
	Issued
	Signed

	Domain   uuid.UUID
	Role     string
	Device   string
	Serial   string
	Location *Location
}

func (n *Node) Meta() *Header    { return &n.Header }
func (n *Node) TypeTag() TypeTag { return n.Type }

func (n *Node) Native() map[string]interface{} {
	var loc interface{}
	if n.Location != nil {
		loc = *n.Location
	}
	return map[string]interface{}{
		"id": n.ID, "type": n.Type, "created": n.Created, "updated": n.Updated,
		"expires": n.Expires, "issuer": n.Issuer, "signature": n.Sig,
		"domain": n.Domain, "role": n.Role, "device": n.Device, "serial": n.Serial,
		"location": loc,
	}
}

func (n *Node) Validate() (errs *apis.FieldError) {
	errs = errs.Also(field.ValidateUUID("id", n.ID, true))
	errs = errs.Also(n.Header.CheckType(TypeNetNode))
	errs = errs.Also(field.ValidateDate("created", n.Created, true))
	errs = errs.Also(field.ValidateDate("expires", n.Expires, true))
	errs = errs.Also(common.CheckUpdated(n.Created, n.Updated))
	errs = errs.Also(common.CheckExpiry(n.Touched(n.Created), n.Expires, common.IdentityMinExpiry))
	errs = errs.Also(field.ValidateUUID("issuer", n.Issuer, true))
	errs = errs.Also(field.ValidateUUID("domain", n.Domain, true))
	errs = errs.Also(field.ValidateChoice("role", n.Role, true, NodeRoles))
	errs = errs.Also(field.ValidateString("device", n.Device, true))
	errs = errs.Also(field.ValidateString("serial", n.Serial, true))
	if n.Role == "server" && (n.Location == nil || n.Location.Empty()) {
		errs = errs.Also(&apis.FieldError{
			Message: "server nodes require at least one hostname or ip (DocumentNoLocation)",
			Paths:   []string{"location"},
		})
	}
	return errs
}

// Host is one member of a Network's host list.
type Host struct {
	Node     uuid.UUID
	IP       []net.IP
	Hostname []string
}

func (h Host) Native() map[string]interface{} {
	return map[string]interface{}{"node": h.Node, "ip": h.IP, "hostname": h.Hostname}
}

func (h Host) Addressable() bool { return len(h.IP) > 0 || len(h.Hostname) > 0 }

// Network is a Domain's published, addressable host list.
type Network struct {
	Header
	Updatable
	Issued
	Signed

	Domain uuid.UUID
	Hosts  []Host
}

func (n *Network) Meta() *Header    { return &n.Header }
func (n *Network) TypeTag() TypeTag { return n.Type }

func (n *Network) Native() map[string]interface{} {
	return map[string]interface{}{
		"id": n.ID, "type": n.Type, "created": n.Created, "updated": n.Updated,
		"expires": n.Expires, "issuer": n.Issuer, "signature": n.Sig,
		"domain": n.Domain, "hosts": hostRecords(n.Hosts),
	}
}

func hostRecords(hosts []Host) []interface{} {
	out := make([]interface{}, len(hosts))
	for i, h := range hosts {
		out[i] = h
	}
	return out
}

func (n *Network) Validate() (errs *apis.FieldError) {
	errs = errs.Also(field.ValidateUUID("id", n.ID, true))
	errs = errs.Also(n.Header.CheckType(TypeNetNetwork))
	errs = errs.Also(field.ValidateDate("created", n.Created, true))
	errs = errs.Also(field.ValidateDate("expires", n.Expires, true))
	errs = errs.Also(common.CheckUpdated(n.Created, n.Updated))
	errs = errs.Also(common.CheckExpiry(n.Touched(n.Created), n.Expires, common.IdentityMinExpiry))
	errs = errs.Also(field.ValidateUUID("issuer", n.Issuer, true))
	errs = errs.Also(field.ValidateUUID("domain", n.Domain, true))
	hasHost := false
	for _, h := range n.Hosts {
		if h.Addressable() {
			hasHost = true
			break
		}
	}
	if !hasHost {
		errs = errs.Also(&apis.FieldError{
			Message: "at least one host must carry a hostname or ip (DocumentNoHost)",
			Paths:   []string{"hosts"},
		})
	}
	return errs
}
