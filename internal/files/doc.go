// Package files locates participant workbooks and guards the report output.
//
// Discovery lists the workbooks of an input directory. Office lock files
// (names starting with "~$") and the report itself are never treated as
// participant data.
//
// Manager prepares output locations and takes an advisory lock next to the
// report so two runs cannot write the same file at once.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.ExecutableDir, logger)
//	workbooks, err := discovery.FindWorkbooks("talleres", []string{".xlsm"}, outputPath)
//
//	manager := files.NewManager(paths, logger)
//	lock, err := manager.AcquireOutputLock(outputPath)
//	if err != nil {
//	    return err
//	}
//	defer lock.Release()
package files
