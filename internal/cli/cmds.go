package cli

func regCommands() {
	//Root
	rootCmd.AddCommand(genesisCmd)
	rootCmd.AddCommand(identityCmd)
}
