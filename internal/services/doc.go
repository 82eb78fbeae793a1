// Package services holds the cross-cutting plumbing shared by pipeline stages:
// the error taxonomy with sentinel markers and stage tagging, the mapping from
// classified errors to HTTP statuses, and context carriers for job, stage, and
// request identity.
package services
