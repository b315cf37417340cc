package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.FetchPapersActivity)
	w.RegisterActivity(a.ExtractTextsActivity)
	w.RegisterActivity(a.ChunkPapersActivity)
	w.RegisterActivity(a.UpdateJobStageActivity)
	w.RegisterActivity(a.EmbedBatchActivity)
	w.RegisterActivity(a.MarkJobReadyActivity)
	w.RegisterActivity(a.MarkJobErrorActivity)
}
