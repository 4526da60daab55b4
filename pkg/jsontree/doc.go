// Package jsontree provides an order-preserving JSON tree and the structural
// walks run over API responses.
//
// A Node is a tagged variant: Object, Array, String, Number, Bool or Null.
// Objects keep their members in the order the server sent them, so walks
// visit nodes in encounter order (object members in source order, array
// elements by index).
//
// Two walks are provided:
//   - SelfLinks collects every string stored under a "self" field.
//   - UserRecords collects every object carrying displayName, active and
//     accountId, including objects nested inside other matches.
//
// PermissionUsers is the narrower filter-specific extraction that only looks
// at editPermissions[].user.
//
// Usage:
//
//	doc, err := jsontree.Parse(body)
//	if err != nil {
//	    return err
//	}
//	for _, link := range jsontree.SelfLinks(doc) {
//	    fmt.Println(link)
//	}
package jsontree
