// Package storage persists fetched Jira resources to disk.
//
// The Manager writes every file through a temporary file in the destination
// directory followed by a rename, so a file either exists complete or not at
// all. Documents are re-indented with four spaces while keeping the member
// order the server used.
//
// Layout describes where a company's run puts its files:
//
//	<company>_filters/<company>.json
//	<company>_filters/filter_names/<name-or-id>.json
//	<company>_filters/usernames/filter_usernames.json
//	<company>_dashboard/<company>.json
//	<company>_dashboard/<company>_users.json
//	<company>_dashboard/dashboard/<name-or-id>.json
//
// Usage:
//
//	manager, err := storage.NewManager(".")
//	if err != nil {
//	    return err
//	}
//	layout := storage.NewLayout("acme")
//	rel := filepath.Join(layout.FilterItemsDir(), storage.ResourceFilename(name, id))
//	if _, err := manager.SaveDocument(rel, body); err != nil {
//	    log.Printf("save failed: %v", err)
//	}
package storage
