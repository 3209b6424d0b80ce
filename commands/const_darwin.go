package commands

const (
	_etc = "/usr/local/etc/com.github.uhppoted/trello-sheets"
	_var = "/usr/local/var/com.github.uhppoted/trello-sheets"

	DEFAULT_CONFIG      = _etc + "/trello-sheets.yaml"
	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
)
