// Copyright 2025 Casaseek Labs
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


package listing

import "sort"

// AccessMethod describes how a configured site can be reached.
type AccessMethod string

const (
	// AccessAPI means the site offers a public API.
	AccessAPI AccessMethod = "API"
	// AccessSitemap means listings are discoverable via sitemap crawling.
	AccessSitemap AccessMethod = "SITEMAP"
	// AccessPublicHTML means listings are scraped from public pages.
	AccessPublicHTML AccessMethod = "PUBLIC_HTML"
	// AccessBYOC requires an authenticated browsing session.
	AccessBYOC AccessMethod = "BYOC"
	// AccessNone means the site cannot be accessed at all.
	AccessNone AccessMethod = "NONE"
)

// Policy maps configured sites to their access method. Sites resolving to
// BYOC or NONE are surfaced as blocked metadata alongside search results,
// never treated as errors.
type Policy struct {
	methods map[string]AccessMethod
}

// NewPolicy creates a policy table from a site→method map.
func NewPolicy(methods map[string]AccessMethod) *Policy {
	copied := make(map[string]AccessMethod, len(methods))
	for site, method := range methods {
		copied[site] = method
	}
	return &Policy{methods: copied}
}

// Method returns the access method for a site.
func (p *Policy) Method(site string) (AccessMethod, bool) {
	m, ok := p.methods[site]
	return m, ok
}

// Blocked returns the sites that cannot be served, sorted for stable output.
func (p *Policy) Blocked() []string {
	var blocked []string
	for site, method := range p.methods {
		if method == AccessBYOC || method == AccessNone {
			blocked = append(blocked, site)
		}
	}
	sort.Strings(blocked)
	return blocked
}
