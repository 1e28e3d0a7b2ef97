package datarecording

// Compile-time checks that every backend implements its interface.
var (
	_ DataRecorder = (*sqliteWriter)(nil)
	_ DataRecorder = (*clickHouseWriter)(nil)
	_ DataReader   = (*sqliteReader)(nil)
)
