package stagesync

// Plan splits the local files into those the stage lacks and those it holds.
type Plan struct {
	Local          []LocalFile
	ToUpload       []LocalFile
	AlreadyPresent []LocalFile
	UploadBytes    int64
	// RemoteListed is false when the stage listing failed and the plan
	// assumed an empty stage.
	RemoteListed bool
}

// BuildPlan compares local files with remote base names.
func BuildPlan(local []LocalFile, remote map[string]struct{}) Plan {
	plan := Plan{Local: local, RemoteListed: true}
	for _, f := range local {
		if _, ok := remote[f.Name]; ok {
			plan.AlreadyPresent = append(plan.AlreadyPresent, f)
			continue
		}
		plan.ToUpload = append(plan.ToUpload, f)
		plan.UploadBytes += f.Size
	}
	return plan
}
