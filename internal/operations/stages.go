package operations

import (
	"context"
	"fmt"
	"log/slog"

	"workshopcli/internal/dataprocessing"
	"workshopcli/internal/exporter"
	"workshopcli/internal/files"
	"workshopcli/internal/infrastructure"
	"workshopcli/internal/validation"
	"workshopcli/pkg/contracts/domain"
)

// DiscoveryStep lists the participant workbooks of the input directory
type DiscoveryStep struct {
	BaseStep
	discovery  *files.Discovery
	validator  *validation.FileValidator
	extensions []string
	progress   *ProgressReporter
	tracer     *PipelineTracer
}

// NewDiscoveryStep creates the discovery step
func NewDiscoveryStep(discovery *files.Discovery, validator *validation.FileValidator, extensions []string, progress *ProgressReporter, tracer *PipelineTracer) *DiscoveryStep {
	return &DiscoveryStep{
		BaseStep:   NewBaseStep(StepIDDiscovery, StepNameDiscovery),
		discovery:  discovery,
		validator:  validator,
		extensions: extensions,
		progress:   progress,
		tracer:     tracer,
	}
}

// Execute finds the workbooks, leaving out the report itself
func (s *DiscoveryStep) Execute(ctx context.Context, state *RunState) error {
	if err := s.validator.ValidateInputDirectory(state.InputDir); err != nil {
		return err
	}

	found, err := s.discovery.FindWorkbooks(state.InputDir, s.extensions, state.OutputPath)
	if err != nil {
		return err
	}

	state.Files = found
	s.progress.Found(len(found))
	s.tracer.RecordFilesDiscovered(ctx, len(found))
	return nil
}

// ExtractionStep reads every discovered workbook in order
type ExtractionStep struct {
	BaseStep
	extractor  *dataprocessing.Extractor
	validator  *validation.FileValidator
	extensions []string
	isolate    bool
	progress  *ProgressReporter
	tracer    *PipelineTracer
	logger    *slog.Logger
}

// NewExtractionStep creates the extraction step. With isolate set a
// workbook that cannot be read yields a flagged row instead of stopping
// the run.
func NewExtractionStep(extractor *dataprocessing.Extractor, validator *validation.FileValidator, extensions []string, isolate bool, progress *ProgressReporter, tracer *PipelineTracer, logger *slog.Logger) *ExtractionStep {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &ExtractionStep{
		BaseStep:   NewBaseStep(StepIDExtraction, StepNameExtraction),
		extractor:  extractor,
		validator:  validator,
		extensions: extensions,
		isolate:    isolate,
		progress:   progress,
		tracer:     tracer,
		logger:     logger.With("step", StepIDExtraction),
	}
}

// Execute extracts each workbook. Cancellation is checked between files.
func (s *ExtractionStep) Execute(ctx context.Context, state *RunState) error {
	stepState := state.GetStep(s.ID())
	state.Results = make([]domain.ParticipantResult, 0, len(state.Files))

	for _, file := range state.Files {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.progress.Reading(file.Name)
		result, err := s.readWorkbook(ctx, file)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			s.tracer.RecordWorkbookRead(ctx, ReadStatusFailed, 0)
			if !s.isolate {
				return fmt.Errorf("failed to read %s: %w", file.Name, err)
			}

			s.logger.WarnContext(ctx, "Workbook skipped",
				slog.String("file", file.Name),
				slog.String("error", err.Error()))
			state.Failed++
			state.Results = append(state.Results, dataprocessing.FailureResult(file.Path, err))
		} else {
			s.tracer.RecordWorkbookRead(ctx, ReadStatusOK, len(result.Activities))
			state.Results = append(state.Results, *result)
		}

		if stepState != nil {
			stepState.UpdateProgress(s.progress.Percent(), file.Name)
		}
	}

	return nil
}

// readWorkbook checks the file is still a workbook before parsing it. The
// listing may be stale by the time the file is read.
func (s *ExtractionStep) readWorkbook(ctx context.Context, file files.FileInfo) (*domain.ParticipantResult, error) {
	if err := s.validator.ValidateWorkbook(file.Path, s.extensions); err != nil {
		return nil, err
	}
	return s.extractor.ParseFile(ctx, file.Path)
}

// TransformStep assembles the summary, detail and statistics views
type TransformStep struct {
	BaseStep
	summarizer *dataprocessing.Summarizer
}

// NewTransformStep creates the transform step
func NewTransformStep(summarizer *dataprocessing.Summarizer) *TransformStep {
	return &TransformStep{
		BaseStep:   NewBaseStep(StepIDTransform, StepNameTransform),
		summarizer: summarizer,
	}
}

// Execute builds the report from the extracted results
func (s *TransformStep) Execute(ctx context.Context, state *RunState) error {
	state.Report = s.summarizer.Build(ctx, state.Results, len(state.Files))
	return nil
}

// OutputStep writes the report workbook under the output lock
type OutputStep struct {
	BaseStep
	writer    *exporter.WorkbookWriter
	manager   *files.Manager
	validator *validation.FileValidator
	progress  *ProgressReporter
	logger    *slog.Logger
}

// NewOutputStep creates the output step
func NewOutputStep(writer *exporter.WorkbookWriter, manager *files.Manager, validator *validation.FileValidator, progress *ProgressReporter, logger *slog.Logger) *OutputStep {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &OutputStep{
		BaseStep:  NewBaseStep(StepIDOutput, StepNameOutput),
		writer:    writer,
		manager:   manager,
		validator: validator,
		progress:  progress,
		logger:    logger.With("step", StepIDOutput),
	}
}

// Execute saves the report, replacing any previous one
func (s *OutputStep) Execute(ctx context.Context, state *RunState) error {
	if state.Report == nil {
		return fmt.Errorf("no report to write")
	}
	if err := s.validator.ValidateOutputDirectory(state.OutputPath); err != nil {
		return err
	}

	lock, err := s.manager.AcquireOutputLock(state.OutputPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			s.logger.WarnContext(ctx, "Failed to release output lock", slog.String("error", err.Error()))
		}
	}()

	tables, err := s.writer.Write(ctx, state.OutputPath, state.Report)
	if err != nil {
		return err
	}

	state.Tables = tables
	s.progress.Written(state.OutputPath, tables)
	return nil
}
