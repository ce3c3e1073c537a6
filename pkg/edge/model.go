package edge

// Attribute is a custom name/value pair attached to an entity.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Attributes is the attribute list of an entity, in API order.
type Attributes []Attribute

// Value returns the value of the named attribute.
func (a Attributes) Value(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Developer is an app developer registered in an organization.
// Developers are keyed by email; the API uses it as the listing cursor.
type Developer struct {
	DeveloperID      string     `json:"developerId,omitempty"`
	Email            string     `json:"email"`
	FirstName        string     `json:"firstName,omitempty"`
	LastName         string     `json:"lastName,omitempty"`
	UserName         string     `json:"userName,omitempty"`
	OrganizationName string     `json:"organizationName,omitempty"`
	Status           string     `json:"status,omitempty"`
	Apps             []string   `json:"apps,omitempty"`
	Companies        []string   `json:"companies,omitempty"`
	Attributes       Attributes `json:"attributes,omitempty"`
	CreatedAt        int64      `json:"createdAt,omitempty"` // epoch millis
	CreatedBy        string     `json:"createdBy,omitempty"`
	LastModifiedAt   int64      `json:"lastModifiedAt,omitempty"`
	LastModifiedBy   string     `json:"lastModifiedBy,omitempty"`
}

// ID returns the developer's email.
func (d Developer) ID() string { return d.Email }

// APIProduct bundles API resources offered to developers. Keyed by name.
type APIProduct struct {
	Name           string     `json:"name"`
	DisplayName    string     `json:"displayName,omitempty"`
	Description    string     `json:"description,omitempty"`
	ApprovalType   string     `json:"approvalType,omitempty"`
	Attributes     Attributes `json:"attributes,omitempty"`
	APIResources   []string   `json:"apiResources,omitempty"`
	Environments   []string   `json:"environments,omitempty"`
	Proxies        []string   `json:"proxies,omitempty"`
	Scopes         []string   `json:"scopes,omitempty"`
	Quota          string     `json:"quota,omitempty"`
	QuotaInterval  string     `json:"quotaInterval,omitempty"`
	QuotaTimeUnit  string     `json:"quotaTimeUnit,omitempty"`
	CreatedAt      int64      `json:"createdAt,omitempty"`
	CreatedBy      string     `json:"createdBy,omitempty"`
	LastModifiedAt int64      `json:"lastModifiedAt,omitempty"`
	LastModifiedBy string     `json:"lastModifiedBy,omitempty"`
}

// ID returns the product name.
func (p APIProduct) ID() string { return p.Name }
