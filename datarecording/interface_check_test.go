package datarecording

var _ DataRecorder = (*SQLiteWriter)(nil)
