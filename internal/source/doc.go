// Package source loads the inputs of the engine from disk.
//
// Two formats are supported:
//
//   - Reflection tables: CSV files holding one reflection per row, with
//     H, K, L columns and one or more measured columns. Leading lines
//     starting with '#' carry the calibration frame:
//
//     # space_group: P 21 21 21
//     # unit_cell: 50.1 60.2 70.3 90 90 90
//     H,K,L,IMEAN,SIGIMEAN
//     1,0,0,120.5,10.2
//
//   - Bin tables: the scale.json report written by the scaling program.
//     Table scaling_tables[1] lists resolution shells with their
//     observation counts and CC1/2 values.
//
// Parsing details of these formats (comment metadata, the '*' flag
// marker on unreliable CC1/2 values, Unicode forms of headings) stay in
// this package. The engine only sees series.Dataset and sweep.Bin values.
package source
