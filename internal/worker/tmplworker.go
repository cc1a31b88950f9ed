package worker

import (
	"context"

	"github.com/programme-lv/grader/internal/activity"
	"github.com/programme-lv/grader/internal/hcleval"
)

// TemplateWorker renders .tpl/.tmpl entry points as string templates
// against the activity's context values, with the other effective
// files available as template-level includes. Its output is the
// rendered text.
type TemplateWorker struct {
	render Renderer
}

func NewTemplateWorker(render Renderer) *TemplateWorker {
	return &TemplateWorker{render: render}
}

func (w *TemplateWorker) Supports(act *activity.Activity) bool {
	return hcleval.IsTemplateName(act.EntryPoint())
}

func (w *TemplateWorker) Run(ctx context.Context, act *activity.Activity, files map[string]string) (any, error) {
	if !w.Supports(act) {
		return nil, &UnsupportedError{WorkerName: "template", EntryPoint: act.EntryPoint()}
	}
	vars, err := contextVars(act)
	if err != nil {
		return nil, err
	}
	return w.render.Render(ctx, act.EntryPoint(), files, vars)
}
