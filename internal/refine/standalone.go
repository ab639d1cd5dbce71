package refine

import (
	"context"

	"github.com/jonathan/resume-refiner/internal/parsing"
	"github.com/jonathan/resume-refiner/internal/types"
)

// GenerateStandalone enhances a complete résumé submitted in one request, without a session
func (s *Service) GenerateStandalone(ctx context.Context, req types.ResumeRequest) (*types.GeneratedResume, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	data := req.CvData()
	data.Skills = parsing.DedupeFold(data.Skills)

	return s.composeResume(ctx, resumeRequest{
		data:        data,
		targetJob:   req.TargetJobTitle,
		description: req.TargetJobDescription,
		language:    req.Language,
		template:    s.template(req.Template),
	})
}
