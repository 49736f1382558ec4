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
	"net"
	"os"
)

// hostnameFunc and interfaceAddrsFunc are indirections over os.Hostname and
// net.InterfaceAddrs so tests can substitute a fixed host identity.
var (
	hostnameFunc       = os.Hostname
	interfaceAddrsFunc = net.InterfaceAddrs
)

// HostInfo is the host-introspection collaborator node generation consults
// when a node's role is "server": it must discover its own addressing
// information to populate the node's Location. The real network stack is
// out of this engine's scope; HostInfo is the seam a caller supplies.
type HostInfo interface {
	Hostnames() ([]string, error)
	Addresses() ([]net.IP, error)
}

// LocalHostInfo is the only concrete HostInfo this package ships: it reads
// the process's own hostname and the non-loopback addresses bound to its
// network interfaces. Implemented directly on net/os because no example
// dependency in this module's stack offers host introspection -- every
// third-party candidate in the corpus (cloud SDKs, k8s client-go) assumes a
// remote API, not the local machine this collaborator describes.
type LocalHostInfo struct{}

// NewLocalHostInfo returns a HostInfo backed by os.Hostname and
// net.InterfaceAddrs.
func NewLocalHostInfo() *LocalHostInfo {
	return &LocalHostInfo{}
}

func (h *LocalHostInfo) Hostnames() ([]string, error) {
	name, err := hostnameFunc()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}
	return []string{name}, nil
}

func (h *LocalHostInfo) Addresses() ([]net.IP, error) {
	addrs, err := interfaceAddrsFunc()
	if err != nil {
		return nil, err
	}
	out := make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		out = append(out, ipNet.IP)
	}
	return out, nil
}
