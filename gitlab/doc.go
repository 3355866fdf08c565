// Package gitlab provides a GitLab backend for issueflow. Workflow
// state is kept in scoped labels ("workflow::dev ready"), which GitLab
// issue boards render as columns, so the agent and the board always
// agree.
//
// Configuration comes from GITLAB_TOKEN, GITLAB_PROJECT (numeric ID or
// "namespace/project" path), and optionally GITLAB_BASE_URL for
// self-hosted instances.
//
//	cfg, err := gitlab.ConfigFromEnv()
//	if err != nil {
//		return err
//	}
//	client, err := gitlab.NewClient(cfg)
//	if err != nil {
//		return err
//	}
//	tracker := gitlab.NewTracker(client, cfg.Project)
package gitlab
