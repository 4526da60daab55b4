package jsontree

import "jirarecon/pkg/models"

const (
	selfKey        = "self"
	displayNameKey = "displayName"
	activeKey      = "active"
	accountIDKey   = "accountId"
)

// SelfLinks returns every string found under a "self" field anywhere in the
// tree, in pre-order. A "self" field never stops descent into its siblings.
func SelfLinks(root *Node) []string {
	var links []string
	collectSelfLinks(root, &links)
	return links
}

func collectSelfLinks(n *Node, links *[]string) {
	if n == nil {
		return
	}
	switch n.Kind {
	case Object:
		for _, m := range n.Members {
			if m.Key == selfKey {
				if s, ok := m.Value.AsString(); ok {
					*links = append(*links, s)
					continue
				}
			}
			collectSelfLinks(m.Value, links)
		}
	case Array:
		for _, item := range n.Items {
			collectSelfLinks(item, links)
		}
	}
}

// UserRecords returns a record for every object in the tree that carries
// displayName, active and accountId. Matched objects are still descended
// into, so nested user objects yield their own records.
func UserRecords(root *Node) []models.UserRecord {
	var records []models.UserRecord
	collectUserRecords(root, &records)
	return records
}

func collectUserRecords(n *Node, records *[]models.UserRecord) {
	if n == nil {
		return
	}
	switch n.Kind {
	case Object:
		if rec, ok := RecordFrom(n); ok {
			*records = append(*records, rec)
		}
		for _, m := range n.Members {
			collectUserRecords(m.Value, records)
		}
	case Array:
		for _, item := range n.Items {
			collectUserRecords(item, records)
		}
	}
}

// RecordFrom builds a UserRecord from an object holding the three user
// fields. Extra fields are ignored; a missing or mistyped field rejects the
// object.
func RecordFrom(obj *Node) (models.UserRecord, bool) {
	if obj == nil || obj.Kind != Object {
		return models.UserRecord{}, false
	}

	displayName, ok := obj.Get(displayNameKey).AsString()
	if !ok {
		return models.UserRecord{}, false
	}
	active, ok := obj.Get(activeKey).AsBool()
	if !ok {
		return models.UserRecord{}, false
	}
	accountID, ok := obj.Get(accountIDKey).AsString()
	if !ok {
		return models.UserRecord{}, false
	}

	return models.UserRecord{
		DisplayName: displayName,
		Active:      active,
		AccountID:   accountID,
	}, true
}

// PermissionUsers returns the users found at editPermissions[].user of a
// filter resource. Entries without a complete user object are skipped.
func PermissionUsers(filter *Node) []models.UserRecord {
	perms := filter.Get("editPermissions")
	if perms == nil || perms.Kind != Array {
		return nil
	}

	var records []models.UserRecord
	for _, perm := range perms.Items {
		if rec, ok := RecordFrom(perm.Get("user")); ok {
			records = append(records, rec)
		}
	}
	return records
}
