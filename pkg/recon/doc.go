// Package recon enumerates the filters and dashboards a Jira Cloud site
// exposes without authentication.
//
// For each family the pipeline fetches the root list, saves it, walks it for
// self links, fetches every link that names a numeric resource id on a
// bounded worker pool, saves each resource and feeds the user records found
// in it into a shared collector. Filters read users from
// editPermissions[].user; dashboards match user objects anywhere, including
// in the root list.
//
// Families run concurrently. Any failure abandons only the link or the family
// it concerns and is logged once with the URL and the reason.
//
//	r := recon.New(cfg, "acme", client, manager, collector.New(), log)
//	reports, err := r.Run(ctx, recon.ModeBoth)
package recon
