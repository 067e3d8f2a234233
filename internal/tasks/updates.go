package tasks

import "fmt"

// ProgressUpdate represents a progress event during a batch run.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Cards finished so far (or archives, for WriteArchive)
	Total   int    // Total cards (or archives) in the run
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Phase of a batch run.
type Phase int

const (
	GenerateCard Phase = iota
	RenderCard
	Pause
	WriteArchive
	Finished
)

func (p Phase) String() string {
	switch p {
	case GenerateCard:
		return "generate_card"
	case RenderCard:
		return "render_card"
	case Pause:
		return "pause"
	case WriteArchive:
		return "write_archive"
	case Finished:
		return "finished"
	default:
		return ""
	}
}

func generateCardUpdate(zip, zips, card, done, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GenerateCard,
		Step:    done,
		Total:   total,
		Message: fmt.Sprintf("Building ZIP %d/%d, card %d/%d...", zip+1, zips, card+1, CardsPerZip),
	}
}

func renderCardUpdate(done, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RenderCard,
		Step:    done,
		Total:   total,
		Message: fmt.Sprintf("Rendering %s...", name),
	}
}

func pauseUpdate(done, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Pause,
		Step:    done,
		Total:   total,
		Message: "Pausing to stay under the rate limit...",
	}
}

func writeArchiveUpdate(zip, zips int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteArchive,
		Step:    zip + 1,
		Total:   zips,
		Message: fmt.Sprintf("Saved ZIP %d/%d", zip+1, zips),
		Data:    path,
	}
}

func finishedUpdate(result *BatchResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Finished,
		Step:    result.Cards,
		Total:   result.Cards,
		Message: fmt.Sprintf("✓ %d cards in %d archives", result.Cards, len(result.Archives)),
		Data:    result,
	}
}
