package edgetest

import "fmt"

// Developers returns a developer collection keyed by email.
func Developers(pageSize int, emails ...string) Collection {
	records := make([]map[string]any, 0, len(emails))
	for i, email := range emails {
		records = append(records, map[string]any{
			"email":       email,
			"developerId": fmt.Sprintf("dev-%04d", i),
			"firstName":   "First",
			"lastName":    fmt.Sprintf("Last%d", i),
			"userName":    fmt.Sprintf("user%d", i),
			"status":      "active",
			"attributes":  []map[string]string{{"name": "tier", "value": "gold"}},
		})
	}
	return Collection{
		Name:        "developers",
		EnvelopeKey: "developer",
		KeyField:    "email",
		PageSize:    pageSize,
		Records:     records,
	}
}

// APIProducts returns an API product collection keyed by name. Products at
// even positions carry the attribute access=public, the others access=private.
func APIProducts(pageSize int, names ...string) Collection {
	records := make([]map[string]any, 0, len(names))
	for i, name := range names {
		access := "public"
		if i%2 == 1 {
			access = "private"
		}
		records = append(records, map[string]any{
			"name":         name,
			"displayName":  "Product " + name,
			"approvalType": "auto",
			"environments": []string{"test", "prod"},
			"attributes":   []map[string]string{{"name": "access", "value": access}},
		})
	}
	return Collection{
		Name:        "apiproducts",
		EnvelopeKey: "apiProduct",
		KeyField:    "name",
		PageSize:    pageSize,
		Records:     records,
	}
}

// Emails returns n sequential developer emails.
func Emails(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("dev%03d@example.com", i)
	}
	return out
}
