package commands

const (
	_etc = "/usr/local/etc/trello-sheets"
	_var = "/usr/local/var/trello-sheets"

	DEFAULT_CONFIG      = _etc + "/trello-sheets.yaml"
	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
)
