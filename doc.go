// Copyright 2023 uhppoted@twyst.co.za. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package trello-sheets republishes the lists, cards and actions of a Trello board as flat tables in a Google
Sheets spreadsheet.

Each import retrieves the board collections from the Trello REST API, flattens every nested record into a single
row of composite column names (e.g. labels_0_name), builds one table per collection and then replaces the contents
of the destination ranges with one batch clear and one batch update. trello-sheets can be used from the command
line but is really intended to be run from a cron job or as a daemon to keep a reporting spreadsheet current.

trello-sheets supports the following commands:

  - import, to import a Trello board into a Google Sheets spreadsheet
  - export, to import a Trello board into a set of TSV files
  - daemon, to run an import on a cron schedule
  - get, to download a Google Sheets worksheet range as a TSV file
  - put, to store a TSV file to a Google Sheets worksheet range
  - version, to display the current version
*/
package trellosheets
